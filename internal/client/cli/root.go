package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

func (a *App) getStatus() string {
	id := a.session.Current()
	if id == nil {
		return ""
	}
	s := id.Username
	if id.IsAdmin() {
		s += " admin"
	}
	return fmt.Sprintf("(%s)", s)
}

func (a *App) Root(ctx context.Context) {

	printlnFn("Welcome to VeriLens CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		a.drainNotifications()
		fmt.Printf("vl %s> ", a.getStatus())
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			a.help()
		case "register":
			a.Register(ctx)
		case "login":
			a.Login(ctx)
		case "logout":
			a.Logout(ctx)
		case "whoami":
			a.WhoAmI(ctx)
		case "analyze":
			a.AnalyzeText(ctx)
		case "analyzeurl":
			a.AnalyzeURL(ctx)
		case "analyzevideo":
			if len(args) == 0 {
				printlnFn("Usage: analyzevideo <file>")
				continue
			}
			a.AnalyzeVideo(ctx, args[0])
		case "h", "history":
			a.History(ctx, args)
		case "sort":
			a.Sort(ctx, args)
		case "stats":
			a.Stats(ctx)
		case "status":
			a.SystemStatus(ctx)
		case "settings":
			a.Settings(ctx, args)
		case "migrate":
			a.MigrateAll(ctx)
		case "cleanup":
			a.CleanupOrphaned(ctx)
		case "admin":
			a.Admin(ctx, args)
		case "exit", "quit":
			printlnFn("Bye!")
			return
		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

func (a *App) help() {
	if a.isLoggedIn() {
		printlnFn("Available commands: analyze, analyzeurl, analyzevideo <file>, (h)istory [key] [asc|desc], sort <key> [asc|desc], stats, status, settings [set], logout, whoami, exit")
		if a.isAdmin() {
			printlnFn("Admin commands: admin users|stats|recent|aihealth|createadmin, migrate, cleanup")
		}
	} else {
		printlnFn("Available commands: register, login, status, exit")
	}
}

// drainNotifications prints and dismisses everything currently in the sink,
// the terminal equivalent of the toast area.
func (a *App) drainNotifications() {
	for _, n := range a.sink.Active() {
		printlnFn(fmt.Sprintf("[%s] %s", n.Severity, n.Message))
		a.sink.Dismiss(n.ID)
	}
}
