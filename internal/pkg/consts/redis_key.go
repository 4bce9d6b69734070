package consts

const (
	OwnershipOrphanKey = "ownership:orphan"
	ImagePendingKey    = "image:pending"
)

const (
	OwnershipRepairLock = "lock:job:ownership_repair"
	CounterSyncLock     = "lock:job:counter_sync"
	ImageCleanupLock    = "lock:job:image_cleanup"
)
