package java_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/microfy/analyzer/java"
)

const userServiceSource = `package com.example;

import com.example.repo.UserRepository;
import java.util.List;

public class UserService extends BaseService implements AuditAware {
    private UserRepository repository;

    public User findUser(long id) {
        User found = repository.load(id);
        return found;
    }

    public List<User> findAll() {
        return repository.loadAll();
    }
}`

const baseSource = `package com.example;

public abstract class BaseService {
}`

const auditSource = `package com.example;

public interface AuditAware {
}`

const userSource = `package com.example;

public class User {
}`

const repositorySource = `package com.example.repo;

import com.example.User;

public class UserRepository {
    public User load(long id) { return null; }
    public java.util.List<User> loadAll() { return null; }
}`

func collectAll(t *testing.T, sources ...string) *java.Collector {
	t.Helper()
	collector := java.NewCollector()
	for _, source := range sources {
		require.NoError(t, collector.CollectSource(context.Background(), []byte(source)))
	}
	return collector
}

func TestCollector_Classes(t *testing.T) {
	collector := collectAll(t, userServiceSource, baseSource, auditSource, userSource, repositorySource)

	classes := collector.Classes()
	service := classes["com.example.UserService"]
	require.NotNil(t, service)
	assert.Equal(t, java.ClassKindClass, service.Kind)
	assert.Equal(t, "UserService", service.Name)
	assert.Equal(t, "com.example", service.Package)
	assert.ElementsMatch(t, []string{"com.example.BaseService", "com.example.AuditAware"}, service.Hierarchy)
	assert.ElementsMatch(t, []string{"findUser", "findAll"}, service.Methods)

	audit := classes["com.example.AuditAware"]
	require.NotNil(t, audit)
	assert.Equal(t, java.ClassKindInterface, audit.Kind)
}

func TestCollector_SequentialIndices(t *testing.T) {
	collector := collectAll(t, baseSource, userSource)

	ordered := collector.Ordered()
	require.Len(t, ordered, 2)
	assert.Equal(t, 0, ordered[0].Index)
	assert.Equal(t, "com.example.BaseService", ordered[0].FullName)
	assert.Equal(t, 1, ordered[1].Index)
	assert.Equal(t, "com.example.User", ordered[1].FullName)
}

func TestCollector_EnumAndStaticImports(t *testing.T) {
	source := `package com.example;

import static java.util.Collections.emptyList;
import com.example.repo.*;

public enum Status {
    ACTIVE, INACTIVE
}`
	collector := collectAll(t, source)

	status := collector.Classes()["com.example.Status"]
	require.NotNil(t, status)
	assert.Equal(t, java.ClassKindEnum, status.Kind)
}

func TestCollector_GenericsAndArraysStripped(t *testing.T) {
	source := `package com.example;

import com.example.repo.UserRepository;

public class Batch extends Holder<UserRepository[]> {
}`
	collector := collectAll(t, source)

	batch := collector.Classes()["com.example.Batch"]
	require.NotNil(t, batch)
	require.Len(t, batch.Hierarchy, 1)
	assert.Equal(t, "com.example.Holder", batch.Hierarchy[0])
}
