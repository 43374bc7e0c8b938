package cli

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/dmitrijs2005/artledger/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts the user for a username and password and attempts to
// create a new account.
//
// On success it prints "Success!" and returns nil. The password byte slice
// is securely wiped before returning. Any I/O or service error is returned
// unchanged.
func (a *App) Register(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.api.Register(ctx, userName, password); err != nil {
		log.Printf("Registration unsuccessfull: %s", err.Error())
		return err
	}

	fmt.Println("Success!")
	return nil
}

// Login prompts the user for credentials and tries to authenticate. On
// success the access token is stored on the API client for subsequent calls.
//
// The password is securely wiped before returning.
func (a *App) Login(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.api.Login(ctx, userName, password); err != nil {
		log.Printf("Login unsuccessfull: %s", err.Error())
		return err
	}

	log.Printf("Login successfull")
	a.userName = userName
	a.loggedIn = true
	a.setMode(ModeOnline)
	return nil
}

// Logout drops the access token and the in-memory session state.
func (a *App) Logout(ctx context.Context) error {
	a.api.SetAccessToken("")
	a.userName = ""
	a.loggedIn = false
	return nil
}
