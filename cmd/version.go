package cmd

import (
	"fmt"
	"runtime"

	"github.com/blang/semver"
	"github.com/creativeprojects/go-selfupdate"
	"github.com/spf13/cobra"
)

const repoSlug = "matija2209/alexa-maxa-reviews-sdk"

var (
	version   = "dev"
	buildTime = "unknown"

	checkLatest bool
)

// SetVersion records build information injected through ldflags
func SetVersion(v, built string) {
	version = v
	buildTime = built
}

var versionCmd = &cobra.Command{
	Use:         "version",
	Short:       "Print version information",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{skipConfigAnnotation: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "reviewsctl %s (built %s, %s/%s)\n", version, buildTime, runtime.GOOS, runtime.GOARCH)

		if !checkLatest {
			return nil
		}

		current, err := currentVersion()
		if err != nil {
			return err
		}

		latest, found, err := selfupdate.DetectLatest(cmd.Context(), selfupdate.ParseSlug(repoSlug))
		if err != nil {
			return fmt.Errorf("failed to check for updates: %w", err)
		}
		if !found || latest.LessOrEqual(current.String()) {
			fmt.Fprintln(out, "You are running the latest version")
			return nil
		}

		fmt.Fprintf(out, "A newer version is available: %s (run 'reviewsctl update-cli')\n", latest.Version())
		return nil
	},
}

var updateCLICmd = &cobra.Command{
	Use:         "update-cli",
	Short:       "Update reviewsctl to the latest release",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{skipConfigAnnotation: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		current, err := currentVersion()
		if err != nil {
			return err
		}

		latest, found, err := selfupdate.DetectLatest(cmd.Context(), selfupdate.ParseSlug(repoSlug))
		if err != nil {
			return fmt.Errorf("error occurred while detecting version: %w", err)
		}
		if !found {
			return fmt.Errorf("latest version for %s/%s could not be found from github repository", runtime.GOOS, runtime.GOARCH)
		}

		if latest.LessOrEqual(current.String()) {
			logger.Info().Str("version", current.String()).Msg("Current binary is the latest version")
			return nil
		}

		exe, err := selfupdate.ExecutablePath()
		if err != nil {
			return fmt.Errorf("could not locate executable path: %w", err)
		}

		if err := selfupdate.UpdateTo(cmd.Context(), latest.AssetURL, latest.AssetName, exe); err != nil {
			return fmt.Errorf("error occurred while updating binary: %w", err)
		}

		logger.Info().Str("version", latest.Version()).Msg("Successfully updated")
		return nil
	},
}

func init() {
	versionCmd.Flags().BoolVar(&checkLatest, "check", false, "check GitHub for a newer release")
}

// currentVersion parses the build version. Development builds cannot be compared.
func currentVersion() (semver.Version, error) {
	v, err := semver.ParseTolerant(version)
	if err != nil {
		return semver.Version{}, fmt.Errorf("cannot compare development build %q against releases: %w", version, err)
	}
	return v, nil
}
