//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Starts the game with the main menu.
func (Run) Menu() error {
	fmt.Println("Run dodge...")
	_, err := executeCmd("go", withArgs("run", "./cmd/dodge", "menu"), withStream())
	return err
}

// Starts the SSH server on :23234.
func (Run) Serve() error {
	mg.Deps(Vet)
	_, err := executeCmd("go", withArgs("run", "./cmd/dodge", "serve"), withStream())
	return err
}
