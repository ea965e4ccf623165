package main

import (
	"github.com/anantham/nutrilens-sub002/config"
	"github.com/anantham/nutrilens-sub002/routes"
	"github.com/anantham/nutrilens-sub002/utils"
)

func main() {
	config.InitDB()
	utils.InitS3()
	r := routes.SetupRouter()
	r.Run(":8080")
}
