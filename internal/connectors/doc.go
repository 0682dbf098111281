// Package connectors holds the clients for the systems records are read
// from. Each connector maps its source's data model onto domain.Record
// and implements driven.RecordStore and driven.Committer.
package connectors
