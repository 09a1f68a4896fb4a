package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/Apurer/pet-adoption-catalog/cmd/catalogctl/command"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("failed to load .env: %v", err)
	}
	command.Execute()
}
