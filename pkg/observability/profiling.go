package observability

import (
	"os"

	"github.com/grafana/pyroscope-go"

	"video-pipeline-service/pkg/logger"
)

// StartProfiling attaches continuous profiling when a pyroscope server is
// configured via env. Failure is logged, never fatal.
func StartProfiling(appName string) {
	addr := os.Getenv("PYROSCOPE_SERVER_ADDRESS")
	if addr == "" {
		return
	}
	_, err := pyroscope.Start(pyroscope.Config{
		ApplicationName: appName,
		ServerAddress:   addr,
		Logger:          nil,
		ProfileTypes: []pyroscope.ProfileType{
			pyroscope.ProfileCPU,
			pyroscope.ProfileAllocObjects,
			pyroscope.ProfileAllocSpace,
			pyroscope.ProfileInuseObjects,
			pyroscope.ProfileInuseSpace,
		},
	})
	if err != nil {
		logger.Warnf("pyroscope start failed error=%s", err.Error())
		return
	}
	logger.Infof("pyroscope profiling started app=%s server=%s", appName, addr)
}
