package main

// bio-fmindex builds and queries FM-indexes over DNA references.
//
// Build an index from a FASTA reference (plain or gzipped):
//
//    bio-fmindex -build -ref ref.fa.gz -index ref.fmi
//
// Query seeds against a built index:
//
//    bio-fmindex -query -index ref.fmi -seeds ACGTACGT,TTAGGC
//
// Query output is TSV: seed, hit count, then the ascending text offsets
// of the hits.

import (
	"bufio"
	"context"
	"flag"
	"io"
	"os"
	"strings"
	"time"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/fmindex"
	"github.com/grailbio/fmindex/dna"
	"github.com/klauspost/compress/gzip"
)

type buildFlags struct {
	refPath   string
	indexPath string
	nPolicy   string
}

type queryFlags struct {
	indexPath string
	seeds     string
	seedsPath string
	stopCnt   int
	maxHits   int
}

// readReference reads a FASTA file (all records concatenated, headers
// dropped) into a packed sequence.  Files ending in .gz are
// decompressed transparently.
func readReference(ctx context.Context, path, nPolicy string) (dna.Seq, error) {
	var seq dna.Seq
	in, err := file.Open(ctx, path)
	if err != nil {
		return seq, err
	}
	defer in.Close(ctx) // nolint: errcheck
	var r io.Reader = in.Reader(ctx)
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(r)
		if err != nil {
			return seq, err
		}
		defer gz.Close() // nolint: errcheck
		r = gz
	}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)
	nSub := 0
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 || line[0] == '>' {
			continue
		}
		symbols, err := dna.Encode(line)
		if err != nil {
			if nPolicy != "substitute" {
				return seq, err
			}
			// Ambiguous bases become 'A', the usual aligner convention when
			// skipping is not an option.
			clean := make([]byte, len(line))
			for i, ch := range line {
				if dna.IsBase(ch) {
					clean[i] = ch
				} else {
					clean[i] = 'A'
					nSub++
				}
			}
			if symbols, err = dna.Encode(clean); err != nil {
				log.Panic(err)
			}
		}
		for _, c := range symbols {
			seq.PushBack(c)
		}
	}
	if err := scanner.Err(); err != nil {
		return seq, err
	}
	if nSub > 0 {
		log.Printf("substituted %d ambiguous bases with A", nSub)
	}
	return seq, nil
}

func build(ctx context.Context, flags buildFlags, opts fmindex.Opts) {
	start := time.Now()
	ref, err := readReference(ctx, flags.refPath, flags.nPolicy)
	if err != nil {
		log.Fatalf("read %s: %v", flags.refPath, err)
	}
	log.Printf("read %d bases from %s in %v", ref.Len(), flags.refPath, time.Since(start))

	idx, err := fmindex.NewWithOpts(ref, opts)
	if err != nil {
		log.Fatalf("build index: %v", err)
	}
	out, err := file.Create(ctx, flags.indexPath)
	if err != nil {
		log.Fatalf("create %s: %v", flags.indexPath, err)
	}
	w := bufio.NewWriterSize(out.Writer(ctx), 1<<20)
	if err := idx.Save(w); err != nil {
		log.Fatalf("save %s: %v", flags.indexPath, err)
	}
	if err := w.Flush(); err != nil {
		log.Fatalf("flush %s: %v", flags.indexPath, err)
	}
	if err := out.Close(ctx); err != nil {
		log.Fatalf("close %s: %v", flags.indexPath, err)
	}
	log.Printf("wrote %s (fingerprint %016x) in %v total", flags.indexPath, idx.Fingerprint(), time.Since(start))
}

func readSeeds(ctx context.Context, flags queryFlags) []string {
	if flags.seeds != "" {
		return strings.Split(flags.seeds, ",")
	}
	in, err := file.Open(ctx, flags.seedsPath)
	if err != nil {
		log.Fatalf("open %s: %v", flags.seedsPath, err)
	}
	defer in.Close(ctx) // nolint: errcheck
	var seeds []string
	scanner := bufio.NewScanner(in.Reader(ctx))
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			seeds = append(seeds, line)
		}
	}
	if err := scanner.Err(); err != nil {
		log.Fatalf("read %s: %v", flags.seedsPath, err)
	}
	return seeds
}

func query(ctx context.Context, flags queryFlags, opts fmindex.Opts, stdout io.Writer) {
	in, err := file.Open(ctx, flags.indexPath)
	if err != nil {
		log.Fatalf("open %s: %v", flags.indexPath, err)
	}
	defer in.Close(ctx) // nolint: errcheck
	start := time.Now()
	idx, err := fmindex.Load(bufio.NewReaderSize(in.Reader(ctx), 1<<20), opts)
	if err != nil {
		log.Fatalf("load %s: %v", flags.indexPath, err)
	}
	log.Printf("loaded %s in %v", flags.indexPath, time.Since(start))

	out := tsv.NewWriter(stdout)
	for _, seed := range readSeeds(ctx, flags) {
		symbols, err := dna.Encode([]byte(seed))
		if err != nil {
			log.Fatalf("seed %s: %v", seed, err)
		}
		beg, end, remaining := idx.Range(symbols, uint32(flags.stopCnt))
		if remaining > 0 {
			log.Printf("seed %s: stopped with %d symbols unconsumed", seed, remaining)
		}
		out.WriteString(seed)
		out.WriteUint32(end - beg)
		offsets := idx.Offsets(beg, end)
		if flags.maxHits > 0 && len(offsets) > flags.maxHits {
			offsets = offsets[:flags.maxHits]
		}
		for _, off := range offsets {
			out.WriteUint32(off)
		}
		if err := out.EndLine(); err != nil {
			log.Fatalf("write output: %v", err)
		}
	}
	if err := out.Flush(); err != nil {
		log.Fatalf("flush output: %v", err)
	}
}

func main() {
	buildMode := flag.Bool("build", false, "Build an index from -ref and write it to -index.")
	queryMode := flag.Bool("query", false, "Query -seeds against the index at -index.")

	buildFlags := buildFlags{}
	flag.StringVar(&buildFlags.refPath, "ref", "", "FASTA reference to index. May be gzipped.")
	flag.StringVar(&buildFlags.nPolicy, "n-policy", "reject",
		`How to treat bases outside ACGT: "reject" fails the build, "substitute" replaces them with A.`)

	queryFlags := queryFlags{}
	flag.StringVar(&queryFlags.seeds, "seeds", "", "Comma-separated seeds to query.")
	flag.StringVar(&queryFlags.seedsPath, "seeds-file", "", "File with one seed per line. Ignored if -seeds is set.")
	flag.IntVar(&queryFlags.stopCnt, "stop-count", 0, "Stop narrowing a seed once its candidate set has at most this many rows.")
	flag.IntVar(&queryFlags.maxHits, "max-hits", 0, "Print at most this many offsets per seed. 0 prints all.")

	indexPath := flag.String("index", "", "Index file to write (-build) or read (-query).")

	opts := fmindex.DefaultOpts
	flag.IntVar(&opts.SAIntv, "sa-interval", fmindex.DefaultOpts.SAIntv, "Suffix-array sampling interval.")
	flag.IntVar(&opts.LookupLen, "lookup-len", fmindex.DefaultOpts.LookupLen, "Kmer length of the prefix lookup table.")

	shutdown := grail.Init()
	defer shutdown()
	ctx := vcontext.Background()

	buildFlags.indexPath = *indexPath
	queryFlags.indexPath = *indexPath
	switch {
	case *buildMode == *queryMode:
		log.Fatal("exactly one of -build and -query must be set")
	case *buildMode:
		if buildFlags.refPath == "" || buildFlags.indexPath == "" {
			log.Fatal("-build requires -ref and -index")
		}
		build(ctx, buildFlags, opts)
	default:
		if queryFlags.indexPath == "" || (queryFlags.seeds == "" && queryFlags.seedsPath == "") {
			log.Fatal("-query requires -index and one of -seeds, -seeds-file")
		}
		query(ctx, queryFlags, opts, os.Stdout)
	}
}
