// Package shogun implements streaming hashed sparse features: a
// feature-hashing transform that projects sparse vectors of arbitrary
// index range into a fixed target dimension, one example at a time.
//
// Collisions are folded by addition (the hashing trick), and optional
// quadratic expansion adds pairwise interaction terms. The library
// produces hashed vectors and two numeric primitives over them — dot
// products and scaled accumulation into a dense buffer — for consumption
// by linear-model training code.
//
// # Basic Usage
//
// Streaming from an SVMLight-format file:
//
//	reader := shogun.NewFileReader[float64]("train.svm")
//	stream, err := shogun.NewHashedStream(reader, 1<<18, shogun.WithLabels())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer stream.Close()
//
//	if err := stream.Start(); err != nil {
//	    log.Fatal(err)
//	}
//	for {
//	    ok, err := stream.NextExample()
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    if !ok {
//	        break
//	    }
//	    margin, _ := stream.DenseDot(weights)
//	    label, _ := stream.Label()
//	    if margin*label <= 0 {
//	        _ = stream.AddToDenseVec(label, weights, false)
//	    }
//	    stream.ReleaseExample()
//	}
//
// Replaying an in-memory dataset:
//
//	stream, err := shogun.NewHashedStreamFromVectors(vectors, labels, 1<<16,
//	    shogun.WithQuadraticFeatures())
//
// # Package Structure
//
//   - Public API: features.go (HashedStream, NextExample, numeric primitives)
//   - Hashing: hash.go (HashFunction, hashVector), vector.go (SparseVector)
//   - Configuration: options.go (Option, With* functions)
//   - Input adapters: reader.go (StreamReader, SliceReader),
//     svmlight.go (FileReader)
//   - Platform: fadvise_*.go (sequential read hints)
package shogun
