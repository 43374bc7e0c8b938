package cli

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"
)

func (a *App) getStatus() string {
	s := ""
	if a.userName != "" {
		s = a.userName + " "
	}
	if a.Mode != "" {
		s = s + string(a.Mode)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

func (a *App) Root(ctx context.Context) {

	log.Println("Welcome to ArtLedger CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	go func() {
		a.StartOnlineStatusWatcher(ctx, onlineCheckInterval)
	}()

	for {
		fmt.Printf("artledger %s> ", a.getStatus())
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
			if a.isLoggedIn() {
				fmt.Println("Available commands: (l)ist, show, publish, buy, verify, license, deposit, balance, upload, download, logout, exit")
			} else {
				fmt.Println("Available commands: register, login, (l)ist, show, license, exit")
			}

		case "register":
			a.Register(ctx)
		case "login":
			a.Login(ctx)
		case "publish":
			a.publish(ctx)
		case "buy":
			a.buy(ctx, args)
		case "verify":
			a.verify(ctx, args)
		case "license":
			a.license(ctx, args)
		case "deposit":
			a.deposit(ctx, args)
		case "balance":
			a.balance(ctx)
		case "l", "list":
			a.list(ctx)
		case "show":
			a.show(ctx, args)
		case "upload":
			a.upload(ctx, args)
		case "download":
			a.download(ctx, args)
		case "logout":
			a.Logout(ctx)
		case "exit", "quit":
			fmt.Println("Bye!")
			return
		default:
			fmt.Println("Unknown command:", cmd)
		}
	}

}
