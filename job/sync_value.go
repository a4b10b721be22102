package job

import "sync"

// syncValue holds the outcome of a run guarded by a mutex.
type syncValue[R any] struct {
	mtx       sync.RWMutex
	value     *R
	err       error
	jobStatus Status
}

func (v *syncValue[R]) store(value R, err error) {
	v.mtx.Lock()
	defer v.mtx.Unlock()

	if err != nil {
		v.jobStatus = StatusFailure
		v.value = nil
	} else {
		v.jobStatus = StatusOK
		v.value = &value
	}
	v.err = err
}

func (v *syncValue[R]) load() (*R, error) {
	v.mtx.RLock()
	defer v.mtx.RUnlock()
	return v.value, v.err
}

func (v *syncValue[R]) status() Status {
	v.mtx.RLock()
	defer v.mtx.RUnlock()
	return v.jobStatus
}
