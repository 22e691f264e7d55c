package cli

import (
	"context"
	"log"
	"os"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for credentials and creates a new account. The account is
// not signed in automatically; the user logs in afterwards.
func (a *App) Register(ctx context.Context) {
	username, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	reqCtx, cancel := a.requestCtx(ctx)
	defer cancel()

	if err := a.session.Register(reqCtx, username, string(password), false); err != nil {
		log.Printf("Registration unsuccessful: %s", err.Error())
		return
	}
	printlnFn("Account created. Use 'login' to sign in.")
}

// Login prompts for credentials and authenticates against the backend. The
// partition migration runs in the background; history commands wait for it.
func (a *App) Login(ctx context.Context) {
	username, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	reqCtx, cancel := a.requestCtx(ctx)
	defer cancel()

	id, err := a.session.Login(reqCtx, username, string(password))
	if err != nil {
		log.Printf("Login unsuccessful: %s", err.Error())
		return
	}
	printlnFn("Logged in as", id.Username)
}

func (a *App) Logout(ctx context.Context) {
	reqCtx, cancel := a.requestCtx(ctx)
	defer cancel()

	a.session.Logout(reqCtx)
	printlnFn("Logged out.")
}

// WhoAmI reconciles the local identity with the backend session and prints
// the result.
func (a *App) WhoAmI(ctx context.Context) {
	reqCtx, cancel := a.requestCtx(ctx)
	defer cancel()

	status := a.session.CheckSession(reqCtx)
	if !status.Authenticated {
		if id := a.session.Current(); id != nil {
			printlnFn("Backend unreachable; last known identity:", id.Username)
			return
		}
		printlnFn("Not logged in.")
		return
	}
	printlnFn("Logged in as", status.Identity.Username, "role:", string(status.Identity.Role))
}
