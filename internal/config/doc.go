// Package config handles configuration loading and merging for runautotests.
//
// # Configuration Precedence
//
// Configuration values are resolved in the following order (highest to lowest priority):
//
//  1. CLI flags (--color, --timeout, --strict, --debug)
//  2. Environment variables (RUNAUTOTESTS_COLOR, NO_COLOR, RUNAUTOTESTS_TIMEOUT, RUNAUTOTESTS_DEBUG)
//  3. YAML config file (.runautotests.yaml in the working directory or
//     ~/.config/runautotests/.runautotests.yaml)
//  4. Hardcoded defaults
//
// When a higher-priority source sets a value, it overrides any lower-priority values.
//
// # Key Configuration Options
//
//   - prefix: first characters of a test-case directory name (default "q")
//   - executable_prefix: file name prefix of the test binary (default "tst_")
//   - exclude: directory name fragments that are never run; replaces the
//     built-in list when present
//   - layout: auto, debug (NAME\debug\tst_NAME.exe) or flat (NAME/tst_NAME)
//   - sort: none (filesystem order) or natural
//   - timeout: per-test limit such as "5m"; 0 disables it
//   - color: auto, always or never
//   - strict: exit 1 when failures, unexpected results or crashes were seen
//
// # Invocation Mode
//
// The directories to scan are decided once, from the positional arguments
// and the working directory, by ResolvePlan. See Mode.
package config
