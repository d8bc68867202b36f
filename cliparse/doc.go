// Copyright (c) 2025 cityledger contributors.
// Licensed under the MIT license; see LICENSE.

/*
Package cliparse parses server configuration from the environment and CLI
flags. Flags win over environment variables; a .env file, when present, is
loaded by main before parsing.

Required settings:

  - CITYLEDGER_BUCKET (-b): object store location, gcs://<bucket> for
    production or memory:// for development

Optional settings:

  - CITYLEDGER_PORT (-p): server port (default: 3480)
  - CITYLEDGER_GOOGLE_CREDENTIALS (-credentials): GCS service account file
  - CITYLEDGER_ACCESS_LOG_DRIVER (-log-driver): sqlite or postgres
  - CITYLEDGER_ACCESS_LOG_DSN (-log-dsn): access log connection string
*/
package cliparse
