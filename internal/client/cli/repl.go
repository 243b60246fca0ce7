package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

func (a *App) getStatus() string {
	s := ""
	if a.isLoggedIn() {
		s = "user "
	} else {
		s = "guest "
	}
	s += string(a.Mode)
	if a.activeBinder != "" {
		s += " " + a.activeBinder
	}
	return "(" + s + ")"
}

// runREPL reads commands line by line and dispatches them. The loop exits
// on EOF or when the user types "exit" or "quit". Command handlers report
// their own errors; the loop keeps going regardless.
func (a *App) runREPL(ctx context.Context, scanner *bufio.Scanner) {
	printlnFn("Welcome to binderkeeper (type 'help' for commands)")

	for {
		fmt.Printf("bk %s> ", a.getStatus())
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			printlnFn("Binder commands: open <binder>, page [n], move <from> <to>, swap <from> <to>, add, grid <CxR>, status, sync")
			printlnFn("Account commands: register, login, logout, exit")

		case "register":
			a.register(ctx)
		case "login":
			a.login(ctx)
		case "logout":
			a.logout(ctx)

		case "open":
			a.open(ctx, args)
		case "page", "p":
			a.page(ctx, args)
		case "move", "m":
			a.move(ctx, args)
		case "swap":
			a.swap(ctx, args)
		case "add":
			a.add(ctx)
		case "grid":
			a.grid(ctx, args)
		case "status":
			a.status(ctx)
		case "sync":
			a.sync(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
