package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	firebase "firebase.google.com/go/v4"
)

var validRoles = map[string]bool{
	"user":       true,
	"admin":      true,
	"superAdmin": true,
}

func main() {
	uid := flag.String("uid", "", "target firebase uid")
	role := flag.String("role", "", "role to set: user, admin or superAdmin")
	flag.Parse()
	if *uid == "" {
		log.Fatal("uid is required: -uid=xxxxx")
	}
	if !validRoles[*role] {
		log.Fatalf("invalid role %q: must be user, admin or superAdmin", *role)
	}

	ctx := context.Background()
	app, err := firebase.NewApp(ctx, nil)
	if err != nil {
		log.Fatalf("firebase.NewApp: %v", err)
	}
	authClient, err := app.Auth(ctx)
	if err != nil {
		log.Fatalf("app.Auth: %v", err)
	}

	claims := map[string]interface{}{
		"role": *role,
	}

	if err := authClient.SetCustomUserClaims(ctx, *uid, claims); err != nil {
		log.Fatalf("SetCustomUserClaims: %v", err)
	}

	fmt.Printf("ok: role %q set for %s\n", *role, *uid)
}
