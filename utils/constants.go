package utils

import "time"

// EvidenceFolder is the evidence-store folder for check-in/out photos.
const EvidenceFolder = "medshift/evidence"

// ReviewCachePrefix is the prefix for cached match-review listings.
const ReviewCachePrefix = "review:"

// ReviewCacheTTL is the time-to-live for cached match-review listings.
const ReviewCacheTTL = 5 * time.Minute
