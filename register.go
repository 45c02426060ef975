package redisdb

import (
	"go.k6.io/k6/js/modules"

	"github.com/oshokin/xk6-redis-db/redisdb"
)

// init registers the redisdb module with the k6 runtime.
func init() {
	modules.Register("k6/x/redisdb", redisdb.New())
}
