// Package files finds trip source files on disk.
//
// Discovery lists the .csv and .xlsx files of a data directory and checks
// which registered cities have a source file present, which backs the
// command line -list flag.
package files
