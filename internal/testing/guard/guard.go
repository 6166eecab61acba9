package guard

import (
	"os"
	"sync"
)

var once sync.Once

func init() {
	once.Do(func() {
		if os.Getenv("CLUSTER_TEST_MODE") == "" {
			_ = os.Setenv("CLUSTER_TEST_MODE", "1")
		}
	})
}
