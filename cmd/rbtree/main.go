package main

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/c9s/rbtree/pkg/cmd"
)

func main() {
	ep, err := os.Executable()
	if err != nil {
		log.Fatalln("failed to find the current executable:", err)
	}

	// .env.local next to the working directory wins over the one next to the binary
	for _, dotenvFile := range []string{".env.local", filepath.Join(filepath.Dir(ep), ".env.local")} {
		if _, err := os.Stat(dotenvFile); err == nil {
			if err := godotenv.Load(dotenvFile); err != nil {
				log.WithError(err).Error("failed to load dotenv file")
			}
		}
	}

	cmd.Execute()
}
