package util

import (
	"os/exec"
	"runtime"
)

// OpenFile 使用系统默认程序打开文件（生成的报告）
func OpenFile(path string) error {
	name, args := openCommand(runtime.GOOS, path)
	return exec.Command(name, args...).Start()
}

// openCommand 各平台的打开命令
func openCommand(goos, path string) (string, []string) {
	switch goos {
	case "windows":
		// rundll32 在 Windows 7 上比 cmd /c start 更稳定
		return "rundll32", []string{"url.dll,FileProtocolHandler", path}
	case "darwin":
		return "open", []string{path}
	default:
		return "xdg-open", []string{path}
	}
}
