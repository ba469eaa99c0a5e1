// @title RavenCode 后端 API
// @version 1.0
// @description RavenCode 练习平台：生命值、练习出题与批改。

// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization

package main

import (
	"os"

	"ravencode_backend/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
