package verushash

import (
	"github.com/verusnet/verushashd/infrastructure/logger"
)

var log, _ = logger.Get(logger.SubsystemTags.VHSH)
