package cli

import (
	"fmt"
	"io"
	"os"
)

var (
	osExit           = os.Exit
	stdout io.Writer = os.Stdout
)

func Usage() {
	fmt.Printf("Usage: %s <command> [options] <args>\n\n", os.Args[0])
	fmt.Println("Commands:")
	fmt.Println("  stamp    Add page numbers to a PDF file")
	fmt.Println("  preview  Write a numbered copy to a temporary file and list the stamps")
	fmt.Println("  info     Show the page count and page sizes of a PDF file")
	fmt.Println("")
	fmt.Printf("Use '%s <command> -h' for command-specific help\n", os.Args[0])
	osExit(1)
}

// Run dispatches os.Args to the matching command.
func Run() {
	if len(os.Args) < 2 {
		Usage()
		return
	}

	switch os.Args[1] {
	case "stamp":
		StampCommand()
	case "preview":
		PreviewCommand()
	case "info":
		InfoCommand()
	default:
		Usage()
	}
}
