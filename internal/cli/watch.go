package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"expensedash/internal/amqp"
	"expensedash/internal/log"
)

func newWatchCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print dataset refresh notifications from the broker",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if rt.cfg.AMQPURL == "" {
				return errors.New("watch needs AMQP_URL")
			}
			client, err := amqp.NewClient(rt.cfg.AMQPURL, rt.cfg.AMQPExchange, rt.cfg.AMQPQueue, rt.logger)
			if err != nil {
				return err
			}
			defer client.Close()

			ctx, stop := GracefulShutdown(cmd.Context())
			defer stop()

			out := cmd.OutOrStdout()
			err = client.Consume(ctx, func(msg *amqp.DatasetRefreshedMessage) error {
				_, err := fmt.Fprintf(out, "%s  snapshot=%s source=%s records=%d sample=%t\n",
					msg.FetchedAt.Format("2006-01-02 15:04:05"), msg.SnapshotID, msg.Source, msg.Records, msg.UsingSample)
				return err
			})
			if errors.Is(err, context.Canceled) {
				rt.logger.Info("watch stopped", log.FieldOperation, log.OpShutdown)
				return nil
			}
			return err
		},
	}
}
