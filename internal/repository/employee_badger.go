package repository

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"time"

	badger "github.com/dgraph-io/badger/v2"
	"github.com/pkg/errors"

	"github.com/spec-kit/employee-service/internal/domain"
)

var (
	employeePrefix = []byte("employee/")
	employeeSeqKey = []byte("seq/employee")
)

const seqBandwidth = 64

func employeeKey(id int64) []byte {
	key := make([]byte, len(employeePrefix)+8)
	copy(key, employeePrefix)
	binary.BigEndian.PutUint64(key[len(employeePrefix):], uint64(id))
	return key
}

// BadgerEmployeeRepository stores employees in an embedded badger database.
// Keys are big-endian ids under a common prefix so a prefix scan yields
// insertion order.
type BadgerEmployeeRepository struct {
	db  *badger.DB
	seq *badger.Sequence
}

// NewBadgerEmployeeRepository leases an id sequence from db. Close releases it;
// the caller still owns db.
func NewBadgerEmployeeRepository(db *badger.DB) (*BadgerEmployeeRepository, error) {
	seq, err := db.GetSequence(employeeSeqKey, seqBandwidth)
	if err != nil {
		return nil, errors.WithMessage(err, "could not lease employee id sequence")
	}
	return &BadgerEmployeeRepository{db: db, seq: seq}, nil
}

// Close returns unused sequence ids to the database.
func (r *BadgerEmployeeRepository) Close() error {
	return r.seq.Release()
}

func (r *BadgerEmployeeRepository) Create(_ context.Context, emp *domain.Employee) error {
	n, err := r.seq.Next()
	if err != nil {
		return errors.WithMessage(err, "could not allocate employee id")
	}
	now := time.Now().UTC()
	emp.ID = int64(n) + 1
	emp.CreatedAt = now
	emp.UpdatedAt = now

	return r.db.Update(func(txn *badger.Txn) error {
		return putEmployee(txn, emp)
	})
}

func (r *BadgerEmployeeRepository) List(_ context.Context) ([]domain.Employee, error) {
	result := make([]domain.Employee, 0)
	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(employeePrefix); it.ValidForPrefix(employeePrefix); it.Next() {
			data, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			var emp domain.Employee
			if err := json.Unmarshal(data, &emp); err != nil {
				return errors.WithMessagef(err, "could not decode %q", it.Item().Key())
			}
			result = append(result, emp)
		}
		return nil
	})
	if err != nil {
		return nil, errors.WithMessage(err, "could not list employees")
	}
	return result, nil
}

func (r *BadgerEmployeeRepository) GetByID(_ context.Context, id int64) (*domain.Employee, error) {
	var emp *domain.Employee
	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		emp, err = getEmployee(txn, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return emp, nil
}

func (r *BadgerEmployeeRepository) Update(_ context.Context, emp *domain.Employee) error {
	return r.db.Update(func(txn *badger.Txn) error {
		stored, err := getEmployee(txn, emp.ID)
		if err != nil {
			return err
		}
		stored.ApplyUpdate(*emp)
		stored.UpdatedAt = time.Now().UTC()
		if err := putEmployee(txn, stored); err != nil {
			return err
		}
		*emp = *stored
		return nil
	})
}

func (r *BadgerEmployeeRepository) Delete(_ context.Context, id int64) error {
	return r.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(employeeKey(id)); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrNotFound
			}
			return errors.WithMessagef(err, "could not read employee %d", id)
		}
		return txn.Delete(employeeKey(id))
	})
}

func getEmployee(txn *badger.Txn, id int64) (*domain.Employee, error) {
	item, err := txn.Get(employeeKey(id))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.WithMessagef(err, "could not read employee %d", id)
	}
	data, err := item.ValueCopy(nil)
	if err != nil {
		return nil, errors.WithMessagef(err, "could not copy employee %d", id)
	}
	var emp domain.Employee
	if err := json.Unmarshal(data, &emp); err != nil {
		return nil, errors.WithMessagef(err, "could not decode employee %d", id)
	}
	return &emp, nil
}

func putEmployee(txn *badger.Txn, emp *domain.Employee) error {
	data, err := json.Marshal(emp)
	if err != nil {
		return errors.WithMessage(err, "could not encode employee")
	}
	return txn.Set(employeeKey(emp.ID), data)
}
