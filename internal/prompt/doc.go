// Package prompt asks the user questions over a blocking reader and returns
// their answers one at a time. Answers are checked by per-question validators;
// a rejected answer prints a warning and the question is asked again.
package prompt
