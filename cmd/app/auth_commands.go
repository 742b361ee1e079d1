package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/authgate/cmd/app/commands"
	"github.com/allisson/authgate/internal/app"
	"github.com/allisson/authgate/internal/config"
)

func getAuthCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "rotate-signing-key",
			Usage: "Replace the token signing key with a freshly generated one",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:    "if-due",
					Aliases: []string{"d"},
					Value:   false,
					Usage:   "Only rotate when the rotation interval has elapsed",
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

				signingConfigUseCase, err := container.SigningConfigUseCase()
				if err != nil {
					return err
				}

				return commands.RunRotateSigningKey(
					ctx,
					signingConfigUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.Bool("if-due"),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "revoke-refresh-tokens",
			Usage: "Revoke all refresh tokens for a subject",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "subject-id",
					Aliases:  []string{"s"},
					Required: true,
					Usage:    "Subject ID (UUID)",
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

				authUseCase, err := container.AuthUseCase()
				if err != nil {
					return err
				}

				return commands.RunRevokeRefreshTokens(
					ctx,
					authUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("subject-id"),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "list-security-events",
			Usage: "List recorded security events, newest first",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:    "offset",
					Aliases: []string{"o"},
					Value:   0,
					Usage:   "Number of events to skip",
				},
				&cli.IntFlag{
					Name:    "limit",
					Aliases: []string{"n"},
					Value:   50,
					Usage:   "Maximum number of events to return",
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

				securityEventUseCase, err := container.SecurityEventUseCase()
				if err != nil {
					return err
				}

				return commands.RunListSecurityEvents(
					ctx,
					securityEventUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					int(cmd.Int("offset")),
					int(cmd.Int("limit")),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "create-user",
			Usage: "Create a new user that can authenticate",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "login",
					Aliases:  []string{"l"},
					Required: true,
					Usage:    "Unique login for the user",
				},
				&cli.StringFlag{
					Name:     "password",
					Aliases:  []string{"p"},
					Required: true,
					Usage:    "Plaintext password, hashed before storage",
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

				userUseCase, err := container.UserUseCase()
				if err != nil {
					return err
				}

				return commands.RunCreateUser(
					ctx,
					userUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("login"),
					cmd.String("password"),
					cmd.String("format"),
				)
			},
		},
	}
}
