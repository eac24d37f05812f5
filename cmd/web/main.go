package main

import "pitchly_backend/internal/app"

func main() {
	app.Run()
}
