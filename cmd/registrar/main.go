package main

import (
	"os"

	"github.com/vburojevic/registrar/internal/app"
)

func main() {
	os.Exit(app.Run())
}
