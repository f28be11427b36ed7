package observability

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/grafana/pyroscope-go"
	"github.com/riskibarqy/nba-dashboard/internal/config"
	"github.com/riskibarqy/nba-dashboard/internal/platform/logging"
)

const contentionSampleRate = 5

var knownProfileTypes = map[string]pyroscope.ProfileType{
	string(pyroscope.ProfileCPU):           pyroscope.ProfileCPU,
	string(pyroscope.ProfileAllocObjects):  pyroscope.ProfileAllocObjects,
	string(pyroscope.ProfileAllocSpace):    pyroscope.ProfileAllocSpace,
	string(pyroscope.ProfileInuseObjects):  pyroscope.ProfileInuseObjects,
	string(pyroscope.ProfileInuseSpace):    pyroscope.ProfileInuseSpace,
	string(pyroscope.ProfileGoroutines):    pyroscope.ProfileGoroutines,
	string(pyroscope.ProfileMutexCount):    pyroscope.ProfileMutexCount,
	string(pyroscope.ProfileMutexDuration): pyroscope.ProfileMutexDuration,
	string(pyroscope.ProfileBlockCount):    pyroscope.ProfileBlockCount,
	string(pyroscope.ProfileBlockDuration): pyroscope.ProfileBlockDuration,
}

// InitPyroscope starts continuous profiling with the profile types named in
// PYROSCOPE_PROFILE_TYPES. The returned stop func is safe to call when
// profiling is off.
func InitPyroscope(cfg config.Config, logger *logging.Logger) (func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}
	noop := func() error { return nil }

	if !cfg.PyroscopeEnabled {
		logger.Debug("pyroscope disabled")
		return noop, nil
	}

	types, err := parseProfileTypes(cfg.PyroscopeProfileTypes)
	if err != nil {
		return nil, err
	}
	mutex, block := needsContentionSampling(types)
	if mutex {
		runtime.SetMutexProfileFraction(contentionSampleRate)
	}
	if block {
		runtime.SetBlockProfileRate(contentionSampleRate)
	}

	profiler, err := pyroscope.Start(pyroscope.Config{
		ApplicationName:   cfg.PyroscopeAppName,
		ServerAddress:     cfg.PyroscopeServerAddress,
		AuthToken:         cfg.PyroscopeAuthToken,
		BasicAuthUser:     cfg.PyroscopeBasicAuthUser,
		BasicAuthPassword: cfg.PyroscopeBasicAuthPassword,
		UploadRate:        cfg.PyroscopeUploadRate,
		Tags: map[string]string{
			"env":         cfg.AppEnv,
			"service":     cfg.ServiceName,
			"data_source": cfg.DataSource,
		},
		ProfileTypes: types,
	})
	if err != nil {
		return nil, fmt.Errorf("start pyroscope: %w", err)
	}

	logger.Info("pyroscope enabled",
		"application", cfg.PyroscopeAppName,
		"profile_types", cfg.PyroscopeProfileTypes,
	)

	return profiler.Stop, nil
}

func parseProfileTypes(names []string) ([]pyroscope.ProfileType, error) {
	if len(names) == 0 {
		names = strings.Split(config.DefaultPyroscopeProfileTypes, ",")
	}

	out := make([]pyroscope.ProfileType, 0, len(names))
	seen := make(map[pyroscope.ProfileType]struct{}, len(names))
	for _, name := range names {
		profileType, ok := knownProfileTypes[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return nil, fmt.Errorf("unknown pyroscope profile type %q", name)
		}
		if _, dup := seen[profileType]; dup {
			continue
		}
		seen[profileType] = struct{}{}
		out = append(out, profileType)
	}

	return out, nil
}

func needsContentionSampling(types []pyroscope.ProfileType) (mutex, block bool) {
	for _, t := range types {
		switch t {
		case pyroscope.ProfileMutexCount, pyroscope.ProfileMutexDuration:
			mutex = true
		case pyroscope.ProfileBlockCount, pyroscope.ProfileBlockDuration:
			block = true
		}
	}
	return mutex, block
}
