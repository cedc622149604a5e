package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/awnumar/memguard"
	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"

	"github.com/stylevault/stylevault/internal/configs"
	kerrors "github.com/stylevault/stylevault/internal/errors"
	"github.com/stylevault/stylevault/internal/secrets"
	"github.com/stylevault/stylevault/internal/ui"
	"github.com/stylevault/stylevault/internal/utils"
	"github.com/stylevault/stylevault/internal/workers"
	"github.com/stylevault/stylevault/internal/workflows"
)

// startSpinner creates and starts a spinner with the given message when not in verbose or debug mode.
// Returns the spinner and a function that should be deferred to clean up.
//
// spinner.FinalMSG values do not need trailing newlines; cleanup adds one.
func startSpinner(message string) (*spinner.Spinner, func()) {
	Logger.Debugf("Starting spinner with message: %s", message)
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " " + message

	if err := s.Color("cyan"); err != nil {
		Logger.Warnf("Failed to set spinner color: %v", err)
	}

	quiet := !verbose && !debug
	if quiet {
		s.Start()
		// Ensure log output is discarded unless in verbose mode.
		log.SetOutput(io.Discard)
	} else {
		Logger.Infof("Running in verbose or debug mode: %s", message)
	}

	cleanup := func() {
		if quiet {
			log.SetOutput(os.Stderr)
		}

		finalMsg := ""
		if s.FinalMSG != "" {
			finalMsg = ui.EnsureNewline(s.FinalMSG)
			// Clear FinalMSG so s.Stop() doesn't print it.
			s.FinalMSG = ""
		}

		if quiet {
			s.Stop()
		}

		// Print final message to stdout (for tests to capture).
		if finalMsg != "" {
			fmt.Print(finalMsg)
		}
	}

	return s, cleanup
}

// openService loads configuration and builds the workflows service over the
// file-backed stores.
func openService() (*workflows.Service, error) {
	settings, err := configs.ResolveSettings(configPath)
	if err != nil {
		return nil, Logger.ErrorfAndReturn("failed to resolve settings: %v", err)
	}
	Logger.Debugf("Config path: %s", settings.ConfigPath)

	cfg, err := configs.Load(settings.ConfigPath)
	if err != nil {
		return nil, Logger.ErrorfAndReturn("failed to load config: %v", err)
	}

	svc, err := workflows.Open(cfg, settings, Logger)
	if err != nil {
		return nil, Logger.ErrorfAndReturn("failed to open stores: %v", err)
	}
	return svc, nil
}

// resolveUser returns the --user value, or one derived from the system
// username when the flag was not given.
func resolveUser(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	id := utils.DefaultUserID()
	if id == "" {
		return "", fmt.Errorf("%w: pass --user", kerrors.ErrInvalidUserID)
	}
	Logger.Infof("No --user given, using %s", id)
	return id, nil
}

// readPassword reads the password from the first line of stdin when
// fromStdin is set, and otherwise prompts on the terminal. With confirm the
// prompt is repeated and both entries must match.
func readPassword(cmd *cobra.Command, fromStdin, confirm bool) (secrets.Password, error) {
	if fromStdin {
		line, err := utils.ReadLine(cmd.InOrStdin())
		if err != nil {
			return secrets.Password{}, err
		}
		defer memguard.WipeBytes(line)
		return secrets.NewPassword(line), nil
	}

	first, err := utils.ReadPassphrase("Password: ")
	if err != nil {
		return secrets.Password{}, err
	}
	defer memguard.WipeBytes(first)
	if len(first) == 0 {
		return secrets.Password{}, kerrors.ErrInvalidPassword
	}

	if confirm {
		second, err := utils.ReadPassphrase("Confirm password: ")
		if err != nil {
			return secrets.Password{}, err
		}
		defer memguard.WipeBytes(second)
		if !bytes.Equal(first, second) {
			return secrets.Password{}, errors.New("passwords do not match")
		}
	}
	return secrets.NewPassword(first), nil
}

// formatError formats a workflow error for display to the user.
func formatError(err error) string {
	switch {
	case errors.Is(err, kerrors.ErrInvalidPassword):
		return ui.Fail("Incorrect password, or the stored private key is damaged")

	case errors.Is(err, kerrors.ErrPublicKeyExists):
		return ui.Fail("Keys already exist for this user") + "\n" +
			ui.Hint("To replace them, run", "stylevault keys create --force")

	case errors.Is(err, kerrors.ErrMissingKeys):
		return ui.Fail(err.Error()) + "\n" +
			ui.Hint("Provision keys with", "stylevault keys create --user <id>")

	case errors.Is(err, kerrors.ErrInvalidPublicKey):
		return ui.Fail(err.Error()) + "\n" +
			ui.Hint("Re-provision the key with", "stylevault keys create --force")

	case errors.Is(err, kerrors.ErrAccessDenied):
		return ui.Fail("Access denied: you are not a recipient of this design")

	case errors.Is(err, kerrors.ErrDecryptionFailed):
		return ui.Fail("The design could not be decrypted; it may have been tampered with")

	case errors.Is(err, kerrors.ErrInvalidPayload):
		return ui.Fail("The design is not valid JSON")

	case errors.Is(err, kerrors.ErrNoCounterpartyAvailable):
		return ui.Fail("No stylist is available right now") + "\n" +
			ui.Hint("Add one with", "stylevault stylists add --id <id> --name <name>")

	case errors.Is(err, kerrors.ErrDesignNotFound):
		return ui.Fail("Design not found") + "\n" +
			ui.Hint("See your designs with", "stylevault designs list")

	case errors.Is(err, kerrors.ErrStylistNotFound),
		errors.Is(err, kerrors.ErrStylistUnavailable),
		errors.Is(err, kerrors.ErrStylistExists),
		errors.Is(err, kerrors.ErrInvalidUserID),
		errors.Is(err, kerrors.ErrInvalidDateFormat):
		return ui.Fail(err.Error())

	case errors.Is(err, workers.ErrQueueTimeout):
		return ui.Fail("Too many operations in progress, try again shortly")

	default:
		return ui.Fail("Failed: " + err.Error())
	}
}

// reportError puts the formatted error on the spinner and returns
// ErrAlreadyReported so the process exits non-zero without repeating it.
func reportError(s *spinner.Spinner, err error) error {
	Logger.Debugf("Command failed: %v", err)
	s.FinalMSG = formatError(err)
	return ErrAlreadyReported
}
