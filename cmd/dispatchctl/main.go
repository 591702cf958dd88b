// Command dispatchctl runs campaign operations against the dispatch database without the HTTP API.
package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/onegreenvn/outreach-dispatch-backend/internal/config"
	"github.com/onegreenvn/outreach-dispatch-backend/internal/database"
	"github.com/onegreenvn/outreach-dispatch-backend/internal/database/repository"
	"github.com/onegreenvn/outreach-dispatch-backend/internal/services"
	"github.com/onegreenvn/outreach-dispatch-backend/internal/services/excel"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	organizationID string
	actorID        string
)

var rootCmd = &cobra.Command{
	Use:   "dispatchctl",
	Short: "Operate outreach campaigns from the command line",
	Long: `dispatchctl activates, pauses and resumes campaigns directly against the
dispatch database, using the same rules as the HTTP API.

Transient database errors are retried with exponential backoff.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&organizationID, "org", "", "organization owning the campaign")
	rootCmd.PersistentFlags().StringVar(&actorID, "actor", "dispatchctl", "actor recorded on audit batches")

	rootCmd.AddCommand(activateCmd, pauseCmd, resumeCmd, statusCmd, exportCmd, tokenCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// dispatchCore is the service set a command needs
type dispatchCore struct {
	campaigns   *services.CampaignService
	activation  *services.ActivationService
	pauseResume *services.PauseResumeService
	reports     *excel.Service
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
	return cfg, nil
}

// openCore connects to the database and builds the services. Campaign operations take the
// postgres advisory lock so they serialize with running servers.
func openCore() (*dispatchCore, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	db, err := database.InitDB(cfg.Database)
	if err != nil {
		return nil, err
	}

	stores := repository.NewStores(db)
	locker := services.NewPostgresCampaignLocker(db)
	filter := services.NewContactFilter()
	assigner := services.NewInstanceAssigner(nil)

	return &dispatchCore{
		campaigns:   services.NewCampaignService(stores, filter, assigner, locker, nil),
		activation:  services.NewActivationService(stores, filter, assigner, locker, nil, cfg.Dispatch.ActivationBatchSize),
		pauseResume: services.NewPauseResumeService(stores, locker, nil),
		reports:     excel.NewExcelService(stores),
	}, nil
}

func requireOrganization() error {
	if organizationID == "" {
		return errMissingOrganization
	}
	return nil
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
