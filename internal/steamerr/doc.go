// Package steamerr defines the errors shared by the steamcmdw packages.
// Callers classify failures with the Is* predicates, which look through
// wrapped errors.
package steamerr
