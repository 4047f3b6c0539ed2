/*
Copyright © 2020 Marvin

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package oracle

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExecutor struct {
	failFirst int
	payload   string
	calls     []string
}

func (f *fakeExecutor) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	f.calls = append(f.calls, query)
	if len(f.calls) <= f.failFirst {
		return nil, fmt.Errorf("ORA-06550: wrong number or types of arguments (attempt %d)", len(f.calls))
	}
	for _, arg := range args {
		var out sql.Out
		switch a := arg.(type) {
		case sql.Out:
			out = a
		case sql.NamedArg:
			if o, ok := a.Value.(sql.Out); ok {
				out = o
			}
		}
		if dest, ok := out.Dest.(*string); ok && dest != nil {
			*dest = f.payload
		}
	}
	return nil, nil
}

func TestDescribeFallbackOrder(t *testing.T) {
	for failFirst := 0; failFirst < len(describeStrategies); failFirst++ {
		exec := &fakeExecutor{failFirst: failFirst, payload: "<PDB>ORCLPDB1</PDB>"}
		payload, err := describeWithExecutor(context.Background(), exec, "ORCLPDB1")
		require.NoError(t, err, "failFirst=%d", failFirst)
		require.NotNil(t, payload)

		assert.Equal(t, describeStrategies[failFirst].ID, payload.Strategy)
		assert.Equal(t, "<PDB>ORCLPDB1</PDB>", payload.XML)
		assert.Equal(t, len(payload.XML), payload.Bytes)
		// 成功之后不得再尝试后续策略
		assert.Len(t, exec.calls, failFirst+1)
		assert.Equal(t, describeStrategies[failFirst].Block, exec.calls[failFirst])
	}
}

func TestDescribeAllStrategiesFail(t *testing.T) {
	exec := &fakeExecutor{failFirst: len(describeStrategies)}
	payload, err := describeWithExecutor(context.Background(), exec, "ORCLPDB1")
	require.Error(t, err)
	require.Nil(t, payload)

	var unavailable *DescribeUnavailableError
	require.True(t, errors.As(err, &unavailable))
	assert.Equal(t, 4, unavailable.Attempts)
	assert.Contains(t, unavailable.LastErr.Error(), "attempt 4")
	assert.Len(t, exec.calls, len(describeStrategies))
}

func TestDescribeStrategyOrder(t *testing.T) {
	require.Len(t, describeStrategies, 4)
	for i, strategy := range describeStrategies {
		assert.Equal(t, i+1, strategy.ID)
		assert.NotEmpty(t, strategy.Block)
	}
	assert.Equal(t, BindingNamed, describeStrategies[0].Binding)
	assert.Equal(t, BindingPositional, describeStrategies[2].Binding)
	assert.Equal(t, OutputFile, describeStrategies[3].Output)
}

func TestDescribeFileStrategyCleansUp(t *testing.T) {
	fileBlock := describeStrategies[3].Block
	// 成功路径与异常路径均须删除服务端临时文件
	assert.Equal(t, 2, strings.Count(fileBlock, "UTL_FILE.FREMOVE"))
	assert.Contains(t, fileBlock, "WHEN OTHERS THEN")
	assert.Contains(t, fileBlock, "RAISE;")
}

func TestDescribeArgsBinding(t *testing.T) {
	var xmlOutput string

	named := describeArgs(describeStrategies[0], "PDB1", &xmlOutput)
	require.Len(t, named, 2)
	arg, ok := named[0].(sql.NamedArg)
	require.True(t, ok)
	assert.Equal(t, "xml_output", arg.Name)

	positional := describeArgs(describeStrategies[2], "PDB1", &xmlOutput)
	require.Len(t, positional, 2)
	_, ok = positional[0].(sql.Out)
	assert.True(t, ok)
	assert.Equal(t, "PDB1", positional[1])
}
