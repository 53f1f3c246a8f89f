package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	appcredit "github.com/jhoicas/repairshop-api/internal/application/credit"
)

// Sweeper es lo que el cron necesita del conciliador.
type Sweeper interface {
	Sweep(ctx context.Context) (appcredit.SweepReport, error)
}

// StartCreditSweepCron lanza una goroutine que ejecuta el barrido cada interval.
// interval <= 0 no arranca nada. Respeta ctx para el apagado ordenado; el canal devuelto
// se cierra cuando la goroutine termina.
func StartCreditSweepCron(ctx context.Context, sweeper Sweeper, interval time.Duration, log zerolog.Logger) <-chan struct{} {
	done := make(chan struct{})
	if interval <= 0 {
		log.Info().Msg("credit_sweep: deshabilitado")
		close(done)
		return done
	}

	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		log.Info().Dur("interval", interval).Msg("credit_sweep: iniciado")
		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("credit_sweep: apagando")
				return
			case <-ticker.C:
				RunSweep(ctx, sweeper, log)
			}
		}
	}()
	return done
}

// RunSweep ejecuta una pasada y registra el resumen. Las cuentas que fallan ya quedaron
// registradas por el conciliador; aquí solo se informa el total.
func RunSweep(ctx context.Context, sweeper Sweeper, log zerolog.Logger) (appcredit.SweepReport, error) {
	start := time.Now()
	report, err := sweeper.Sweep(ctx)
	if err != nil {
		log.Error().Err(err).Msg("credit_sweep: no se pudo listar cuentas")
		return report, err
	}
	ev := log.Info()
	if report.Failed > 0 {
		ev = log.Warn()
	}
	ev.Int("evaluated", report.Evaluated).
		Int("blocked", report.Blocked).
		Int("flagged", report.Flagged).
		Int("normalized", report.Normalized).
		Int("reminders", report.Reminders).
		Int("failed", report.Failed).
		Dur("elapsed", time.Since(start)).
		Msg("credit_sweep: pasada completa")
	return report, nil
}
