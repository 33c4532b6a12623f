package commands

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	identityDomain "github.com/teranga/caisse/internal/identity/domain"
	identityUsecase "github.com/teranga/caisse/internal/identity/usecase"
)

// RunCreateAdmin enrolls an ADMIN identity directly from the command line.
// It exists to bootstrap a fresh installation: the enrollment endpoint
// requires an authenticated ADMIN or AGENT, so the first administrator has
// to come from somewhere else. When the password is empty the user is
// prompted for it interactively.
//
// Requirements: Database must be migrated and accessible.
func RunCreateAdmin(
	ctx context.Context,
	identityUseCase identityUsecase.UseCase,
	logger *slog.Logger,
	name string,
	email string,
	password string,
	region string,
	department string,
	commune string,
	format string,
	io IOTuple,
) error {
	logger.Info("creating admin identity", slog.String("email", email))

	if password == "" {
		var err error
		password, err = promptForPassword(io)
		if err != nil {
			return fmt.Errorf("failed to get password: %w", err)
		}
	}

	input := identityUsecase.CreateIdentityInput{
		Name:          name,
		Email:         email,
		Password:      password,
		PrincipalRole: string(identityDomain.RoleAdmin),
		Region:        region,
		Department:    department,
		Commune:       commune,
	}

	identity, err := identityUseCase.Create(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to create admin identity: %w", err)
	}

	if format == "json" {
		outputAdminJSON(identity, io.Writer)
	} else {
		outputAdminText(identity, io.Writer)
	}

	logger.Info("admin identity created successfully",
		slog.String("identity_id", identity.ID.String()),
		slog.String("code", identity.Code),
	)

	return nil
}

// promptForPassword reads the password from the interactive reader.
func promptForPassword(io IOTuple) (string, error) {
	reader := bufio.NewReader(io.Reader)

	_, _ = fmt.Fprint(io.Writer, "Enter password: ")
	password, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	password = strings.TrimSpace(password)
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}

	return password, nil
}

// outputAdminText outputs the result in human-readable text format.
func outputAdminText(identity *identityDomain.Identity, writer io.Writer) {
	_, _ = fmt.Fprintln(writer, "\nAdmin identity created successfully!")
	_, _ = fmt.Fprintf(writer, "Identity ID: %s\n", identity.ID.String())
	_, _ = fmt.Fprintf(writer, "Code: %s\n", identity.Code)
	_, _ = fmt.Fprintf(writer, "Email: %s\n", identity.Email)
}

// outputAdminJSON outputs the result in JSON format for machine consumption.
func outputAdminJSON(identity *identityDomain.Identity, writer io.Writer) {
	result := map[string]string{
		"identity_id": identity.ID.String(),
		"code":        identity.Code,
		"email":       identity.Email,
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "failed to marshal JSON: %v\n", err)
		return
	}

	_, _ = fmt.Fprintln(writer, string(jsonBytes))
}
