// Package database provides SQLite-based storage for fetch run history.
//
// Each completed run can be persisted as a row in the runs table plus
// one row per downloaded document, so "exhibitfetch history" can show
// what a filing yielded in earlier runs without re-crawling anything.
package database
