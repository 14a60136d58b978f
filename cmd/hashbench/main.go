// Hashbench measures streaming feature-hashing throughput.
//
// It either replays a generated in-memory dataset or streams an
// SVMLight-format file, hashing every example and touching the result with
// a dense dot product so the work is not optimized away.
//
// Usage:
//
//	go run ./cmd/hashbench -examples 1000000 -entries 50 -dim 262144
//	go run ./cmd/hashbench -file train.svm -labels -dim 262144
//
// Flags:
//
//	-examples   Number of generated examples (default: 1,000,000)
//	-entries    Non-zero entries per generated example (default: 50)
//	-dim        Target dimension (default: 262144)
//	-quadratic  Enable quadratic feature expansion (default: false)
//	-hash       Hash function: murmur3, xxhash64 or xxh3 (default: murmur3)
//	-file       Stream an SVMLight file instead of generated data
//	-labels     File records carry labels (file mode only)
package main

import (
	"flag"
	"fmt"
	"log"
	mrand "math/rand/v2"
	"runtime"
	"syscall"
	"time"

	"github.com/NanuSai/shogun"
)

// getMaxRSS returns the maximum resident set size in bytes.
func getMaxRSS() uint64 {
	var rusage syscall.Rusage
	if err := syscall.Getrusage(syscall.RUSAGE_SELF, &rusage); err != nil {
		return 0
	}
	// On macOS, MaxRss is in bytes. On Linux, it's in kilobytes.
	maxRSS := uint64(rusage.Maxrss)
	if runtime.GOOS == "linux" {
		maxRSS *= 1024
	}
	return maxRSS
}

func parseHashFlag(name string) (shogun.HashFunction, error) {
	switch name {
	case "murmur3":
		return shogun.HashMurmur3, nil
	case "xxhash64":
		return shogun.HashXXHash64, nil
	case "xxh3":
		return shogun.HashXXH3, nil
	}
	return 0, fmt.Errorf("unknown hash function %q", name)
}

func main() {
	examplesFlag := flag.Int("examples", 1_000_000, "number of generated examples")
	entriesFlag := flag.Int("entries", 50, "non-zero entries per generated example")
	dimFlag := flag.Uint("dim", 1<<18, "target dimension")
	quadraticFlag := flag.Bool("quadratic", false, "enable quadratic feature expansion")
	hashFlag := flag.String("hash", "murmur3", "hash function: murmur3, xxhash64 or xxh3")
	fileFlag := flag.String("file", "", "stream an SVMLight file instead of generated data")
	labelsFlag := flag.Bool("labels", false, "file records carry labels (file mode only)")
	flag.Parse()

	hashFn, err := parseHashFlag(*hashFlag)
	if err != nil {
		log.Fatal(err)
	}

	opts := []shogun.Option{shogun.WithHashFunction(hashFn)}
	if *quadraticFlag {
		opts = append(opts, shogun.WithQuadraticFeatures())
	}

	var (
		stream      *shogun.HashedStream[float64]
		numExamples int
	)
	if *fileFlag != "" {
		if *labelsFlag {
			opts = append(opts, shogun.WithLabels())
		}
		stream, err = shogun.NewHashedStream(shogun.NewFileReader[float64](*fileFlag), uint32(*dimFlag), opts...)
	} else {
		fmt.Printf("Generating %d examples with %d entries each...\n", *examplesFlag, *entriesFlag)
		rng := mrand.New(mrand.NewPCG(0x1234567890ABCDEF, 0xFEDCBA9876543210))
		vectors := make([]shogun.SparseVector[float64], *examplesFlag)
		for i := range vectors {
			vec := make(shogun.SparseVector[float64], *entriesFlag)
			for j := range vec {
				vec[j] = shogun.Entry[float64]{
					Index: rng.Uint64() >> 16, // a large but bounded raw index space
					Value: rng.Float64()*2 - 1,
				}
			}
			vectors[i] = vec
		}
		stream, err = shogun.NewHashedStreamFromVectors(vectors, nil, uint32(*dimFlag), opts...)
	}
	if err != nil {
		log.Fatal(err)
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		log.Fatal(err)
	}

	dense := make([]float64, stream.Dim())
	for i := range dense {
		dense[i] = 1
	}

	fmt.Printf("Hashing into dim=%d hash=%s quadratic=%v...\n", stream.Dim(), hashFn, *quadraticFlag)
	var sink float64
	start := time.Now()
	for {
		ok, err := stream.NextExample()
		if err != nil {
			log.Fatal(err)
		}
		if !ok {
			break
		}
		d, err := stream.DenseDot(dense)
		if err != nil {
			log.Fatal(err)
		}
		sink += d
		stream.ReleaseExample()
		numExamples++
	}
	elapsed := time.Since(start)

	fmt.Printf("Examples:   %d\n", numExamples)
	fmt.Printf("Elapsed:    %v\n", elapsed)
	fmt.Printf("Throughput: %.0f examples/sec\n", float64(numExamples)/elapsed.Seconds())
	fmt.Printf("Max RSS:    %.1f MB\n", float64(getMaxRSS())/(1024*1024))
	fmt.Printf("Checksum:   %g\n", sink)
}
