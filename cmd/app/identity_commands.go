package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/teranga/caisse/cmd/app/commands"
	"github.com/teranga/caisse/internal/app"
	"github.com/teranga/caisse/internal/config"
)

func getIdentityCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-admin",
			Usage: "Enroll the first ADMIN identity (bootstrap)",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "name",
					Aliases:  []string{"n"},
					Required: true,
					Usage:    "Full name of the administrator",
				},
				&cli.StringFlag{
					Name:     "email",
					Aliases:  []string{"e"},
					Required: true,
					Usage:    "Login email address",
				},
				&cli.StringFlag{
					Name:    "password",
					Aliases: []string{"p"},
					Usage:   "Login password (omit to be prompted)",
				},
				&cli.StringFlag{
					Name:     "region",
					Required: true,
					Usage:    "Region the administrator is attached to (e.g., DAKAR)",
				},
				&cli.StringFlag{
					Name:     "department",
					Required: true,
					Usage:    "Department within the region",
				},
				&cli.StringFlag{
					Name:  "commune",
					Usage: "Commune within the department",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				identityUseCase, err := container.IdentityUseCase()
				if err != nil {
					return err
				}

				return commands.RunCreateAdmin(
					ctx,
					identityUseCase,
					container.Logger(),
					cmd.String("name"),
					cmd.String("email"),
					cmd.String("password"),
					cmd.String("region"),
					cmd.String("department"),
					cmd.String("commune"),
					cmd.String("format"),
					commands.DefaultIO(),
				)
			},
		},
	}
}
