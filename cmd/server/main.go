package main

import "clubportal/internal/app"

// @title           Clubportal API
// @version         1.0
// @description     Membership management for the USV sports club.
// @BasePath        /
func main() {
	app.Run()
}
