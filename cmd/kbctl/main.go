// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command kbctl is the operator CLI for the knowledge base.
//
// It hashes the admin password for ADMIN_PASSWORD_HASH, previews article
// content offline and manages articles on a running server:
//
//	kbctl hash-password 's3cret'
//	kbctl render -f talk.json --page > talk.html
//	kbctl push -f talk.yaml
//	kbctl list --status draft
//	kbctl publish 12
package main

import (
	"io"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	// CONFKB_API_URL and CONFKB_PASSWORD may come from a local .env.
	_ = godotenv.Load()

	if err := execute(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		os.Exit(1)
	}
}

// execute runs one command line. Errors are already printed when returned.
func execute(args []string, stdout, stderr io.Writer) error {
	app := &cli{stdout: stdout, stderr: stderr}
	root := app.rootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.Execute(); err != nil {
		app.printer().Error("%v", err)
		return err
	}
	return nil
}
