// Package timeid generates 27-character, time-ordered, URL-safe, globally
// unique identifiers.
//
// # Format
//
// An ID is 160 bits: a 32-bit big-endian timestamp counting seconds since
// EpochOffset, followed by 128 bits of random data. The bits are encoded with
// an order-preserving Radix-64 alphabet,
//
//	$0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ_abcdefghijklmnopqrstuvwxyz
//
// so comparing two IDs as strings compares their timestamps first. IDs
// created in the same second sort in random order.
//
// # Randomness
//
// Random data comes from ChaCha20 in a fast-key-erasure construction. The
// key is replaced every time the keystream pool is refilled and every served
// block is erased, so a leak of a Generator's memory reveals neither earlier
// IDs nor earlier keys. Generator state is never serialized.
//
// Usage
//
//	g, err := timeid.New()
//	if err != nil {
//	    return err
//	}
//	defer g.Close()
//
//	id := g.Generate()               // "1KDSj..." (27 characters)
//	at, err := timeid.CreatedAt(id)  // creation time, one-second resolution
package timeid
