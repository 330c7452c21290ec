package pbaas

import (
	"github.com/verusnet/verushashd/infrastructure/logger"
)

var log, _ = logger.Get(logger.SubsystemTags.PBAS)
