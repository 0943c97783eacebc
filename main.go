package main

import (
	"fmt"
	"os"
	"strings"

	"uno-qr-menu/cmd/adminservice"
	"uno-qr-menu/cmd/cashiermonitor"
	"uno-qr-menu/cmd/menuservice"
	"uno-qr-menu/cmd/migrate"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	// Extract mode from arguments
	var mode string
	var serviceArgs []string

	for i := 1; i < len(os.Args); i++ {
		arg := os.Args[i]
		if strings.HasPrefix(arg, "--mode=") {
			mode = strings.TrimPrefix(arg, "--mode=")
		} else if arg == "--mode" && i+1 < len(os.Args) {
			mode = os.Args[i+1]
			i++ // skip the next argument
		} else {
			serviceArgs = append(serviceArgs, arg)
		}
	}

	if mode == "" {
		printUsage()
		os.Exit(1)
	}

	// Set the service-specific arguments
	os.Args = append([]string{os.Args[0]}, serviceArgs...)

	switch mode {
	case "menu-service":
		menuservice.Main()
	case "cashier-monitor":
		cashiermonitor.Main()
	case "admin-service":
		adminservice.Main()
	case "migrate":
		migrate.Main()
	default:
		fmt.Printf("Invalid mode: %s\n", mode)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: uno-qr-menu --mode=<service-mode> [service-specific-flags]")
	fmt.Println("Available modes:")
	fmt.Println("  menu-service --port=3000")
	fmt.Println("  cashier-monitor --port=3001 --sound=true")
	fmt.Println("  admin-service --port=3002")
	fmt.Println("  migrate --dir=migrations")
}
