// Package doctran is a batch translation pipeline for structured technical
// documents (SGML/DocBook, Markdown, AsciiDoc).
//
// Doctran decomposes a document into translatable and non-translatable
// segments, mines domain terminology into a persistent store, translates the
// translatable segments in bounded chunks through an AI provider, and
// reassembles the result with every structural token (tags, indentation,
// code blocks) byte-preserved. When enough new terminology accumulates it
// can trigger a fine-tuning job on the provider.
//
// Basic usage:
//
//	import (
//	    "context"
//
//	    "github.com/ZaguanLabs/doctran"
//	    _ "github.com/ZaguanLabs/doctran/document" // register formats
//	    "github.com/ZaguanLabs/doctran/provider"
//	    "github.com/ZaguanLabs/doctran/termstore"
//	)
//
//	func main() {
//	    client := provider.NewOpenAIClient(provider.OpenAIConfig{
//	        APIKey: os.Getenv("OPENAI_API_KEY"),
//	    })
//	    store, _ := termstore.OpenSQLite("terms.db")
//	    defer store.Close()
//
//	    p := doctran.NewPipeline(client,
//	        doctran.WithStore(store),
//	        doctran.WithTargetLangs("ko", "ja"),
//	    )
//
//	    result, err := p.TranslateFile(context.Background(), "doc/pgfreespacemap.sgml")
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(result.Stage) // StageDone
//	}
package doctran
