package main

import (
	"path/filepath"

	"github.com/verusnet/verushashd/infrastructure/logger"
	"github.com/verusnet/verushashd/util/panics"
)

var (
	log, _ = logger.Get(logger.SubsystemTags.VHCL)
	spawn  = panics.GoroutineWrapperFunc(log)
)

func initLog(logDir string) {
	logger.InitLog(filepath.Join(logDir, defaultLogFilename), filepath.Join(logDir, defaultErrLogFilename))
}
