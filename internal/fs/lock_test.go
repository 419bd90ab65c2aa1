package fs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func Test_Locker_TryLock_Returns_ErrWouldBlock_When_Path_Is_Locked(t *testing.T) {
	t.Parallel()

	locker := NewLocker(NewReal())
	path := filepath.Join(t.TempDir(), "lock")

	lock1, err := locker.TryLock(path)
	if err != nil {
		t.Fatalf("TryLock(%q): %v", path, err)
	}
	t.Cleanup(func() { _ = lock1.Close() })

	lock2, err := locker.TryLock(path)
	if !errors.Is(err, ErrWouldBlock) {
		t.Fatalf("TryLock(%q) while locked: err=%v, want %v", path, err, ErrWouldBlock)
	}
	if lock2 != nil {
		_ = lock2.Close()
		t.Fatalf("TryLock(%q) while locked: want lock=nil, got non-nil", path)
	}

	if err := lock1.Close(); err != nil {
		t.Fatalf("Close(): %v", err)
	}

	lock3, err := locker.TryLock(path)
	if err != nil {
		t.Fatalf("TryLock(%q) after release: %v", path, err)
	}
	if err := lock3.Close(); err != nil {
		t.Fatalf("Close(): %v", err)
	}
}

func Test_Locker_LockWithTimeout_Returns_ErrWouldBlock_When_Path_Is_Locked(t *testing.T) {
	t.Parallel()

	locker := NewLocker(NewReal())
	path := filepath.Join(t.TempDir(), "lock")

	lock1, err := locker.TryLock(path)
	if err != nil {
		t.Fatalf("TryLock(%q): %v", path, err)
	}
	defer lock1.Close()

	start := time.Now()

	_, err = locker.LockWithTimeout(path, 50*time.Millisecond)
	if !errors.Is(err, ErrWouldBlock) {
		t.Fatalf("LockWithTimeout while locked: err=%v, want %v", err, ErrWouldBlock)
	}

	if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
		t.Errorf("LockWithTimeout returned after %s, want >= 50ms", elapsed)
	}
}

func Test_Locker_LockWithTimeout_Rejects_NonPositive_Timeout(t *testing.T) {
	t.Parallel()

	locker := NewLocker(NewReal())

	_, err := locker.LockWithTimeout(filepath.Join(t.TempDir(), "lock"), 0)
	if !errors.Is(err, ErrInvalidTimeout) {
		t.Fatalf("err=%v, want %v", err, ErrInvalidTimeout)
	}
}

func Test_Locker_Creates_Missing_Parent_Directories(t *testing.T) {
	t.Parallel()

	locker := NewLocker(NewReal())
	path := LockPath(filepath.Join(t.TempDir(), "data", "records.txt"))

	lock, err := locker.LockWithTimeout(path, time.Second)
	if err != nil {
		t.Fatalf("LockWithTimeout(%q): %v", path, err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("lock file missing: %v", err)
	}

	if err := lock.Close(); err != nil {
		t.Fatalf("Close(): %v", err)
	}

	if err := lock.Close(); err != nil {
		t.Fatalf("second Close() should be a no-op, got %v", err)
	}
}

func Test_LockPath_Uses_Locks_Subdirectory(t *testing.T) {
	t.Parallel()

	got := LockPath(filepath.Join("/data", "records.txt"))
	want := filepath.Join("/data", ".locks", "records.txt.lock")

	if got != want {
		t.Errorf("LockPath()=%q, want=%q", got, want)
	}
}
