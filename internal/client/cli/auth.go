package cli

import (
	"context"
	"errors"
	"log"
	"os"

	"binderkeeper/internal/client/client"
	"binderkeeper/internal/common"
)

func (a *App) register(ctx context.Context) {
	userName, err := GetSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	password, err := GetPassword(os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}
	defer common.WipeByteArray(password)

	if err := a.auth.Register(ctx, userName, string(password)); err != nil {
		log.Printf("Registration unsuccessful: %s", err.Error())
		return
	}
	log.Printf("Registered, you can log in now")
}

func (a *App) login(ctx context.Context) {
	userName, err := GetSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	password, err := GetPassword(os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}
	defer common.WipeByteArray(password)

	if err := a.auth.Login(ctx, userName, string(password)); err != nil {
		if errors.Is(err, client.ErrUnavailable) {
			log.Printf("Server unavailable, staying in guest mode")
		} else {
			log.Printf("Login unsuccessful: %s", err.Error())
		}
		return
	}

	log.Printf("Login successful")
	a.setMode(ModeOnline)
}

func (a *App) logout(ctx context.Context) {
	if err := a.auth.Logout(ctx); err != nil {
		log.Printf("error: %v", err)
		return
	}
	log.Printf("Logged out, local binders stay available as guest")
}
