// Package guilddata provides the per-guild configuration cache shared by bot
// modules.
//
// A Manager sits in front of a document Store and keeps one document per
// guild in memory. Writes go to the store first and reach the cache only
// after the store accepted them, so a restart never loses a value a caller
// has already observed. Reads are served from the cache; a guild that has not
// been loaded yet is filled one key at a time through projection queries, or
// as a whole through Refresh and ForGuild.
//
// Values are stored as JSON. Lookup and Modify decode and encode typed values:
//
//	channels, ok, err := guilddata.Lookup[[]snowflake.ID](ctx, m, guildID, "ID_JTC_CHANNELS")
//
// Every error caused by the store is wrapped with ErrStoreUnavailable.
package guilddata
