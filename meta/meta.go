// meta/meta.go
package meta

// ENGINE_NAME is reported in the "id name" handshake line.
const ENGINE_NAME = "Tiltak"

// ENGINE_AUTHOR is reported in the "id author" handshake line.
const ENGINE_AUTHOR = "Morten Lohne"

// MIN_HALF_KOMI and MAX_HALF_KOMI bound the HalfKomi spin option.
const MIN_HALF_KOMI = -10
const MAX_HALF_KOMI = 10

// SUPPORTED_SIZES are the board sizes accepted by teinewgame.
var SUPPORTED_SIZES = []int{4, 5, 6}

// SAFETY_MARGIN is the fraction of a movetime limit the search may use.
const SAFETY_MARGIN = 0.7

// POLL_INTERVAL is the number of search steps between input polls.
const POLL_INTERVAL = 10000

// BATCH_BASE and BATCH_GROWTH size the i-th batch as BATCH_BASE * BATCH_GROWTH^i.
const BATCH_BASE = 1000
const BATCH_GROWTH = 1.1

// SLATEBOT_ROLLOUT_DEPTH is added to the rollout depth for the slatebot profile.
const SLATEBOT_ROLLOUT_DEPTH = 200

// MAX_NODES caps the number of tree nodes a single search may allocate.
const MAX_NODES = 2_000_000

// MAX_PLIES caps self-play games in experiments.
const MAX_PLIES = 300
