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
package errors

import "github.com/oradba/pdbtoolkit/common"

type (
	MSErrorType   string
	MSErrorDomain string
)

// program error type
const (
	PDBTOOLKIT MSErrorType = "PDBTOOLKIT"
)

// program error domain
const (
	DOMAIN_CONFIG      MSErrorDomain = common.TaskTypeConfig
	DOMAIN_DB          MSErrorDomain = common.TaskTypeDatabase
	DOMAIN_HEALTHCHECK MSErrorDomain = common.TaskTypeHealthCheck
	DOMAIN_PRECHECK    MSErrorDomain = common.TaskTypePrecheck
	DOMAIN_CLONE       MSErrorDomain = common.TaskTypeClone
	DOMAIN_POSTCHECK   MSErrorDomain = common.TaskTypePostcheck
)

func (t MSErrorType) Explain() string {
	return explainMSErrorType[t]
}

func (d MSErrorDomain) Explain() string {
	return explainMSErrorDomain[d]
}

var explainMSErrorType = map[MSErrorType]string{
	PDBTOOLKIT: "PDBTOOLKIT",
}

var explainMSErrorDomain = map[MSErrorDomain]string{
	DOMAIN_CONFIG:      common.TaskTypeConfig,
	DOMAIN_DB:          common.TaskTypeDatabase,
	DOMAIN_HEALTHCHECK: common.TaskTypeHealthCheck,
	DOMAIN_PRECHECK:    common.TaskTypePrecheck,
	DOMAIN_CLONE:       common.TaskTypeClone,
	DOMAIN_POSTCHECK:   common.TaskTypePostcheck,
}
