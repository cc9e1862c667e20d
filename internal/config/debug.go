package config

import "os"

func IsDebug() bool {
	return os.Getenv("TERMLINK_DEBUG") == "1"
}
