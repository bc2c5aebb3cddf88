package sync

import (
	"encoding/binary"

	"github.com/emirpasic/gods/maps/treemap"
	"github.com/emirpasic/gods/utils"
	"github.com/spaolacci/murmur3"
)

// ring is a consistent hash ring mapping keys onto stripe indices.
type ring struct {
	hashRing *treemap.Map

	// minStripe caches the value of the min entry, since treemap.Map.Min()
	// is O(log n) and is needed whenever a hash wraps around.
	minStripe int
}

// newRing returns a ring where every named entry occupies replicationFactor
// points and resolves to its stripe index.
func newRing(entries map[string]int, replicationFactor uint) *ring {
	hashRing := treemap.NewWith(utils.Int64Comparator)
	for name, stripe := range entries {
		keyHash, _ := murmur3.Sum128([]byte(name))
		keyHashBytes := make([]byte, 8)
		binary.LittleEndian.PutUint64(keyHashBytes, keyHash)

		indexBytes := make([]byte, 4)
		for i := 0; i < int(replicationFactor); i++ {
			hasher := murmur3.New128()
			hasher.Write(keyHashBytes)
			binary.LittleEndian.PutUint32(indexBytes, uint32(i))
			hasher.Write(indexBytes)
			hash, _ := hasher.Sum128()
			hashRing.Put(int64(hash), stripe)
		}
	}

	r := &ring{hashRing: hashRing}
	if _, min := hashRing.Min(); min != nil {
		r.minStripe = min.(int)
	}
	return r
}

// shard consistently hashes the key onto a stripe
func (r *ring) shard(key []byte) int {
	hasher := murmur3.New128()
	hasher.Write(key)
	raw, _ := hasher.Sum128()
	if _, stripe := r.hashRing.Ceiling(int64(raw)); stripe != nil {
		return stripe.(int)
	}
	return r.minStripe
}
