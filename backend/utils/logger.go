package utils

import (
	"log"
	"os"
)

// InitLogger returns the application logger. All request logging and
// best-effort failure reporting goes through it.
func InitLogger() *log.Logger {
	return log.New(os.Stdout, "[learnhub] ", log.LstdFlags|log.LUTC)
}
