package config

import "os"

func IsDebug() bool {
	return os.Getenv("VERDICT_DEBUG") == "1"
}
