// Package qbank implements the intake and deduplication pipeline for
// question captures submitted by a browser userscript. Captures are
// persisted as on-disk HTML/JSON artifacts plus downloaded images, and
// recorded in a relational store keyed by a per-source question key so
// repeated captures of the same logical question collapse to one row.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g. sqlite/, goquery/, htmltomarkdown/).
package qbank
