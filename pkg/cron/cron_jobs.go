package cron

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"splitright/internal/repositories/ledgerstore"
	"splitright/pkg/utils"

	"github.com/robfig/cron/v3"
)

func StartCronJob(db *sql.DB) *cron.Cron {
	c := cron.New()

	// Runs daily at midnight: remind members with a negative balance
	_, err := c.AddFunc("0 0 * * *", func() {
		if err := SendReminderEmailsToDebtors(db); err != nil {
			utils.Logger.Errorf("Cron job failed to send reminder emails: %v", err)
		}
	})
	if err != nil {
		utils.Logger.Errorf("Failed to schedule debtor reminder job: %v", err)
	}

	c.Start()
	utils.Logger.Info("Cron jobs started (debtor reminders daily at midnight)")
	return c
}

// SendReminderEmailsToDebtors emails every member who owes money in a
// group, one mail per (user, group) pair. Sends run concurrently.
func SendReminderEmailsToDebtors(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 45*time.Second)
	defer cancel()

	store := ledgerstore.New(db)
	debtors, err := store.DebtorBalances(ctx)
	if err != nil {
		return err
	}

	var wg sync.WaitGroup
	errChan := make(chan error, len(debtors))

	for _, d := range debtors {
		wg.Add(1)
		go func(d ledgerstore.DebtorBalance) {
			defer wg.Done()

			owed := d.Owed.StringFixed(2)
			if err := utils.SendDebtorReminderEmail(d.Email, d.Name, owed, d.GroupName); err != nil {
				errChan <- fmt.Errorf("failed to send reminder email to %s: %v", d.Email, err)
				return
			}

			utils.Logger.Infof("Sent reminder to %s (%s): owes %s in '%s'",
				d.Name, d.Email, owed, d.GroupName)
		}(d)
	}

	wg.Wait()
	close(errChan)

	for e := range errChan {
		utils.Logger.Error(e)
	}

	utils.Logger.Info("Finished sending debtor reminder emails")
	return nil
}
