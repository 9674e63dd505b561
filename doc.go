// Package logging is the console and file logging service of the Signal
// Console tool suite.
//
// It wraps rs/zerolog behind a small fluent surface and renders console
// lines in the house format: a bold amber local timestamp, a colorized
// width-padded severity tag, the call site, then the message.
//
//	[2026-08-22T15:49:01] [INFO ] [acars.go:87] station online
//
// The shortest path in is Enable, which maps a kernel style verbosity
// count to a severity and starts console logging without ever failing:
//
//	logger := logging.Enable(5)
//	logger.Info("receiver online")
//	logger.Debugf("frame %d dropped", n)
//
// Hosts that want the full configuration surface build a Service instead:
//
//	svc := logging.NewService(logging.DefaultConfig(), workDir)
//	if err := svc.Initialize(); err != nil {
//		// the service stays inert; emissions are safe no-ops
//	}
//	defer svc.Close()
//
//	svc.InfoWith().Str("station", id).Int("frames", n).Msg("session done")
//
//	ground := svc.With().Str("station", id).Logger()
//	ground.Warn("signal lost")
//
// Severity follows the usual trace < debug < info < warn < error order.
// Configuring a level enables it and everything more severe; "disabled"
// turns every sink off. The SC_LOG_LEVEL environment variable overrides
// the configured level when it names a valid severity.
//
// Every emission on a nil or uninitialized Service is a safe no-op, and a
// failed write never surfaces to the caller. The one deliberate
// exception: Fatal and Fatalf terminate the process even when the
// service cannot write the record.
package logging
