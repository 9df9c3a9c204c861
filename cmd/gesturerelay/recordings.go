package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ayusman/gesturerelay/internal/bootstrap"
	"github.com/ayusman/gesturerelay/internal/config"
	"github.com/ayusman/gesturerelay/internal/store"
)

var recordingsDBPath string

func newRecordingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recordings",
		Short: "Manage recorded frame sessions",
	}
	cmd.PersistentFlags().StringVar(&recordingsDBPath, "db-path", "", "recordings database path (default from config)")

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List recordings, newest first",
		Args:  cobra.NoArgs,
		RunE:  runRecordingsList,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "show <id>",
		Short: "Show one recording",
		Args:  cobra.ExactArgs(1),
		RunE:  runRecordingsShow,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a recording and its frames",
		Args:  cobra.ExactArgs(1),
		RunE:  runRecordingsDelete,
	})

	return cmd
}

// openRecordings opens the store named by --db-path, the config file, or
// the default location, in that order.
func openRecordings(cmd *cobra.Command) (*store.Store, error) {
	path := recordingsDBPath
	if !cmd.Flags().Changed("db-path") {
		cfg := config.DefaultConfig()
		fileCfg, err := config.LoadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		fileCfg.Apply(&cfg, nil)
		path = cfg.DBPath
	}
	if path == "" {
		return nil, errors.New("no database path configured")
	}
	return bootstrap.OpenStore(path)
}

func runRecordingsList(cmd *cobra.Command, _ []string) error {
	st, err := openRecordings(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	recordings, err := st.Recordings().List()
	if err != nil {
		return fmt.Errorf("failed to list recordings: %w", err)
	}
	if len(recordings) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no recordings")
		return nil
	}

	w := newTabWriter(cmd)
	fmt.Fprintln(w, "ID\tNAME\tSOURCE\tFRAMES\tDURATION\tCREATED")
	for _, r := range recordings {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n",
			r.ID, r.Name, r.Source, r.Frames,
			(time.Duration(r.DurationMs) * time.Millisecond).String(),
			r.CreatedAt.Format(time.DateTime),
		)
	}
	return w.Flush()
}

func runRecordingsShow(cmd *cobra.Command, args []string) error {
	st, err := openRecordings(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	r, err := st.Recordings().GetByID(args[0])
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("recording %s not found", args[0])
		}
		return fmt.Errorf("failed to load recording: %w", err)
	}

	w := newTabWriter(cmd)
	fmt.Fprintf(w, "ID\t%s\n", r.ID)
	fmt.Fprintf(w, "Name\t%s\n", r.Name)
	fmt.Fprintf(w, "Source\t%s\n", r.Source)
	fmt.Fprintf(w, "Frames\t%d\n", r.Frames)
	fmt.Fprintf(w, "Duration\t%s\n", (time.Duration(r.DurationMs) * time.Millisecond).String())
	fmt.Fprintf(w, "Created\t%s\n", r.CreatedAt.Format(time.DateTime))
	fmt.Fprintf(w, "Updated\t%s\n", r.UpdatedAt.Format(time.DateTime))
	return w.Flush()
}

func runRecordingsDelete(cmd *cobra.Command, args []string) error {
	st, err := openRecordings(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.Recordings().Delete(args[0]); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("recording %s not found", args[0])
		}
		return fmt.Errorf("failed to delete recording: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
	return nil
}
