// Package cinecase provides an embedded Go client for weighted
// multi-attribute similarity retrieval over a case base of movies.
//
// The client runs the retrieval engine in-process. Cases come from a CSV
// file, an in-memory slice, or a Redis snapshot written by a previous run:
//
//	client, _ := cinecase.New(ctx, cinecase.WithCSV("data/movies.csv"))
//	defer client.Close()
//
//	matches, _ := client.Retrieve(ctx, cinecase.Query{
//	    Attributes: map[string]any{
//	        "genres": []string{"Sci-Fi", "Action"},
//	        "year":   1999,
//	    },
//	    Limit: 5,
//	})
//
// Weights default to the schema's per-attribute defaults and can be
// overridden per query. Attributes absent from the query, or from a case,
// are skipped and the remaining weights renormalized, so partial queries
// still score on the evidence both sides share.
package cinecase
