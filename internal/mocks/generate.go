package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Source --dir ../domain/game --output domain/game --outpkg gamemock --filename source_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Writer --dir ../domain/game --output domain/game --outpkg gamemock --filename writer_mock.go
