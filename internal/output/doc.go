// Package output provides terminal output and exit-code handling for the chatmd CLI.
//
// Commands print through a Printer, which switches between styled human
// output and JSON based on the --json flag:
//
//	printer := output.NewPrinter(cmd.OutOrStdout(), jsonMode, output.IsTTY(cmd.OutOrStdout()))
//	printer.Success(map[string]any{"message": "Converted 12 conversations", "count": 12})
//	printer.Table([]string{"Name", "Updated"}, rows)
//	printer.Error(err)
//
// # Exit Codes
//
//	output.ExitSuccess     // 0
//	output.ExitUserError   // 1: bad flags, malformed archive
//	output.ExitSystemError // 2: output directory or file cannot be written
//
// Errors built with NewUserError / NewSystemError carry their code through
// wrapping; GetExitCode recovers it at the process boundary.
package output
