// Command secrets stores site passwords in the OS keychain so they can be
// left out of config files.
//
//	secrets set <site> <username>      (password read from stdin)
//	secrets delete <site> <username>
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"go-jobpilot-automation/internal/config"
	"go-jobpilot-automation/internal/site"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: secrets set|delete <site> <username>")
	}
	flag.Parse()

	if flag.NArg() != 3 {
		flag.Usage()
		os.Exit(2)
	}
	cmd, name, username := flag.Arg(0), flag.Arg(1), flag.Arg(2)

	s, ok := site.Parse(name)
	if !ok {
		log.Fatalf("❌ Unknown site %q", name)
	}

	switch cmd {
	case "set":
		fmt.Fprintf(os.Stderr, "Password for %s (%s): ", username, s)
		password, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && password == "" {
			log.Fatalf("❌ Failed to read password: %v", err)
		}
		if err := config.SetPassword(s, username, strings.TrimRight(password, "\r\n")); err != nil {
			log.Fatalf("❌ Failed to store password: %v", err)
		}
		log.Printf("🔐 Stored password for %s on %s", username, s)
	case "delete":
		if err := config.DeletePassword(s, username); err != nil {
			log.Fatalf("❌ Failed to delete password: %v", err)
		}
		log.Printf("🗑️ Deleted password for %s on %s", username, s)
	default:
		flag.Usage()
		os.Exit(2)
	}
}
