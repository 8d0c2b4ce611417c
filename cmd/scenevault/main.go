// Package main 启动应用程序
package main

import "github.com/yeisme/scenevault/pkg/cmd"

//	@title			SceneVault API
//	@version		1.0
//	@description	SceneVault 接收上传的图片，通过视觉语言模型识别其中的自然场景，并保存为可浏览、可分享的日志条目。

func main() {
	if err := cmd.Execute(); err != nil {
		panic(err)
	}
}
